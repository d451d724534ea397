package config

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/prometheus/common/model"
	"github.com/spf13/viper"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		DurationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)),
}

// DurationDecodeHook decodes strings into time.Duration using the Prometheus duration syntax
// (e.g. 15s, 1h30m, 2d). Numbers are rejected unless zero, since a bare 15 has no unit.
func DurationDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch f.Kind() {
		case reflect.String:
			s := data.(string)
			if s == "" {
				return time.Duration(0), nil
			}
			d, err := model.ParseDuration(s)
			if err != nil {
				return nil, err
			}
			return time.Duration(d), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			if reflect.ValueOf(data).IsZero() {
				return time.Duration(0), nil
			}
			return nil, errors.Errorf("duration %v has no unit, write it as e.g. %vs", data, data)
		default:
			return data, nil
		}
	}
}
