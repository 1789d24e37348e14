package main

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"sentinel/internal/classifier"
	"sentinel/internal/config"
	"sentinel/internal/keywords"
	"sentinel/internal/logging"
	"sentinel/internal/reference"
	"sentinel/internal/service"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.AppConfig
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			c.config, _, c.configErr = config.LoadDefault()
			return
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(out io.Writer) (*logrus.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(out, cfg.Log.Level, cfg.Log.Format)
}

// openService builds the scan service on top of the configured reference
// provider. The caller must close the returned provider.
func (c *commandContext) openService(ctx context.Context, logOut io.Writer, opts service.Options) (*service.ScanService, *reference.Provider, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(logOut)
	if err != nil {
		return nil, nil, err
	}

	provider, err := reference.New(ctx, cfg.References, logging.Component(logger, "references"))
	if err != nil {
		return nil, nil, err
	}

	if opts.RecommendThreshold == nil {
		opts.RecommendThreshold = &cfg.Classifier.RecommendThreshold
	}
	svc := service.NewScanService(
		provider.ReferenceProvider,
		classifier.New(cfg.Classifier.DuplicateThreshold, cfg.Classifier.Workers),
		keywords.NewFrequencyExtractor(cfg.Keywords.Limit),
		opts,
		logging.Component(logger, "scan"),
	)
	return svc, provider, nil
}
