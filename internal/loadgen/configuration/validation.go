package configuration

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/common/model"

	commonconfig "github.com/armadaproject/loadgen/internal/common/config"
)

const minQueryInterval = time.Second

// ValidateLoadgenConfiguration checks struct constraints and then the cross-field rules of every configured section.
// All failures are collected so they can be reported together.
func ValidateLoadgenConfiguration(config LoadgenConfiguration) error {
	var result *multierror.Error

	if err := validator.New().Struct(config); err != nil {
		commonconfig.LogValidationErrors(err)
		result = multierror.Append(result, err)
	}
	if len(config.Querier.Groups) > 0 || len(config.Querier.Targets) > 0 {
		result = multierror.Append(result, ValidateQuerierConfiguration(config.Querier))
	}
	if config.Scaler.Enabled() {
		result = multierror.Append(result, ValidateScalerConfiguration(config.Scaler))
	}
	return result.ErrorOrNil()
}

func ValidateQuerierConfiguration(config QuerierConfiguration) error {
	var result *multierror.Error

	if len(config.Targets) == 0 {
		result = multierror.Append(result, fmt.Errorf("querier: at least one target is required"))
	}
	if len(config.Groups) == 0 {
		result = multierror.Append(result, fmt.Errorf("querier: at least one query group is required"))
	}
	if config.StartupDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("querier: startupDelay must not be negative"))
	}
	if config.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("querier: timeout must be positive"))
	}
	if config.FailureThreshold <= 0 {
		result = multierror.Append(result, fmt.Errorf("querier: failureThreshold must be positive"))
	}

	targetNames := map[string]bool{}
	for i, target := range config.Targets {
		if targetNames[target.Name] {
			result = multierror.Append(result, fmt.Errorf("querier.targets[%d]: duplicate target name %q", i, target.Name))
		}
		targetNames[target.Name] = true
		if _, err := url.ParseRequestURI(os.ExpandEnv(target.Url)); err != nil {
			result = multierror.Append(result, fmt.Errorf("querier.targets[%d] %q: invalid url: %s", i, target.Name, err))
		}
	}

	groupNames := map[string]bool{}
	for i, group := range config.Groups {
		if groupNames[group.Name] {
			result = multierror.Append(result, fmt.Errorf("querier.groups[%d]: duplicate group name %q", i, group.Name))
		}
		groupNames[group.Name] = true
		if err := validateQueryGroup(group); err != nil {
			result = multierror.Append(result, fmt.Errorf("querier.groups[%d] %q: %s", i, group.Name, err))
		}
	}
	return result.ErrorOrNil()
}

func validateQueryGroup(group QueryGroupConfig) error {
	if group.Interval < minQueryInterval {
		return fmt.Errorf("interval %s must be at least %s", group.Interval, minQueryInterval)
	}
	if group.QueryType() != RangeQuery {
		return nil
	}
	if group.Start <= 0 {
		return fmt.Errorf("range queries require a positive start offset")
	}
	if group.End < 0 || group.End >= group.Start {
		return fmt.Errorf("end offset %s must be within [0, start)", group.End)
	}
	if group.Step == "" {
		return fmt.Errorf("range queries require a step")
	}
	step, err := model.ParseDuration(group.Step)
	if err != nil {
		return fmt.Errorf("invalid step %q: %s", group.Step, err)
	}
	if step <= 0 {
		return fmt.Errorf("step must be positive")
	}
	return nil
}

func ValidateScalerConfiguration(config ScalerConfiguration) error {
	var result *multierror.Error
	if config.Name == "" {
		result = multierror.Append(result, fmt.Errorf("scaler: deployment name is required"))
	}
	if config.Namespace == "" {
		result = multierror.Append(result, fmt.Errorf("scaler: namespace is required"))
	}
	if config.IntervalSeconds <= 0 {
		result = multierror.Append(result, fmt.Errorf("scaler: intervalSeconds must be positive"))
	}
	if config.Low < 0 || config.High < 0 {
		result = multierror.Append(result, fmt.Errorf("scaler: replica counts must not be negative"))
	}
	if config.Low > config.High {
		result = multierror.Append(result, fmt.Errorf("scaler: low (%d) must not exceed high (%d)", config.Low, config.High))
	}
	return result.ErrorOrNil()
}
