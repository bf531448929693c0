package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/genmapper/internal/duckdb"
	"github.com/inodb/genmapper/internal/genbank"
)

// loadFeatures parses the feature table of path, going through the feature
// cache when it is enabled and the input is a regular file.
func (a *app) loadFeatures(path string, useCache bool) (*genbank.Features, error) {
	var fc *duckdb.FeatureCache
	var fp duckdb.FileFingerprint

	if useCache && a.cfg.Cache.Enabled && a.cfg.Cache.Dir != "" {
		var err error
		if fp, err = duckdb.StatFile(path); err == nil {
			fc = duckdb.NewFeatureCache(a.cfg.Cache.Dir)
			if fc.Valid(fp) {
				f, err := fc.Load(path)
				if err == nil {
					a.logger.Debug("loaded features from cache", zap.String("path", path))
					return f, nil
				}
				a.logger.Warn("dropping unreadable feature cache", zap.String("path", path), zap.Error(err))
				fc.Remove(path)
			}
		}
	}

	parser := genbank.NewFileParser(a.cfg.Parser.BufferSize)
	parser.SetLogger(a.logger)
	f, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%s: %w", path, genbank.ErrNoFeatures)
	}

	if fc != nil {
		if err := fc.Write(fp, f); err != nil {
			a.logger.Warn("could not write feature cache", zap.String("path", path), zap.Error(err))
		} else {
			a.logger.Debug("cached features", zap.String("path", path), zap.String("dir", fc.Dir()))
		}
	}
	return f, nil
}
