package configuration

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// BucketConfig describes a downloaded block. MinTime and MaxTime are unix timestamps in milliseconds.
type BucketConfig struct {
	Path    string `yaml:"path"`
	MinTime int64  `yaml:"minTime"`
	MaxTime int64  `yaml:"maxTime"`
}

// BlockTime is the time queries against the block are evaluated at.
func (b BucketConfig) BlockTime() time.Time {
	return time.UnixMilli(b.MaxTime)
}

func LoadBucketConfig(path string) (*BucketConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading bucket config %s", path)
	}
	var bucketConfig BucketConfig
	if err := yaml.Unmarshal(data, &bucketConfig); err != nil {
		return nil, errors.Wrapf(err, "parsing bucket config %s", path)
	}
	if bucketConfig.MaxTime <= 0 || bucketConfig.MinTime > bucketConfig.MaxTime {
		return nil, errors.Errorf("bucket config %s has invalid time range [%d, %d]", path, bucketConfig.MinTime, bucketConfig.MaxTime)
	}
	return &bucketConfig, nil
}

// LoadOptionalBucketConfig returns nil if path is empty or cannot be loaded; only head queries are run in that case.
func LoadOptionalBucketConfig(path string) *BucketConfig {
	if path == "" {
		return nil
	}
	bucketConfig, err := LoadBucketConfig(path)
	if err != nil {
		log.WithError(err).Warn("Ignoring bucket config, only querying the head block")
		return nil
	}
	log.Infof("Querying block %s at %s", bucketConfig.Path, bucketConfig.BlockTime().UTC().Format(time.RFC3339))
	return bucketConfig
}
