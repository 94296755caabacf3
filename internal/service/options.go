package service

import (
	"time"

	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/repository"
)

// Clock returns the current time. Services read it once per load.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func pageOptions(cfg config.FetchConfig, source string) repository.PageOptions {
	return repository.PageOptions{Source: source, PageSize: cfg.PageSize, MaxPages: cfg.MaxPages}
}
