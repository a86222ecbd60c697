package batch

import (
	"github.com/ddvk/rmraster/cache"
	"github.com/ddvk/rmraster/config"
	"github.com/ddvk/rmraster/visualize"
)

// NewOptions maps the settings to batch options. With caching enabled the
// snapshot is loaded from snapshotPath, or the user cache dir when empty,
// and the caller saves it after the run.
func NewOptions(cfg config.Config, snapshotPath string) (Options, error) {
	format, err := visualize.ParseFormat(cfg.Format)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Format:          format,
		Workers:         int64(cfg.Workers),
		PreviewFallback: cfg.PreviewFallback,
		ScalePreviews:   cfg.ScalePreviews,
	}
	if !cfg.Cache {
		return opts, nil
	}

	if snapshotPath == "" {
		if snapshotPath, err = cache.DefaultPath(); err != nil {
			return Options{}, err
		}
	}
	if opts.Snapshot, err = cache.Load(snapshotPath); err != nil {
		return Options{}, err
	}
	return opts, nil
}
