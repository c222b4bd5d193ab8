package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonConfig struct {
	API struct {
		BaseURL        string   `json:"base_url"`
		Key            string   `json:"key"`
		Secret         string   `json:"secret"`
		RequestTimeout Duration `json:"request_timeout"`
		Dispatchers    int      `json:"dispatchers"`
	} `json:"api,omitempty"`

	Storage struct {
		DBPath string `json:"db_path"`
	} `json:"storage,omitempty"`

	Sync struct {
		Interval      Duration `json:"interval"`
		FullSyncEvery int      `json:"full_sync_every"`
	} `json:"sync,omitempty"`

	Log struct {
		File string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		API: API{
			BaseURL:        jsonCfg.API.BaseURL,
			Key:            jsonCfg.API.Key,
			Secret:         jsonCfg.API.Secret,
			RequestTimeout: time.Duration(jsonCfg.API.RequestTimeout),
			Dispatchers:    jsonCfg.API.Dispatchers,
		},
		Storage: Storage{
			DBPath: jsonCfg.Storage.DBPath,
		},
		Sync: Sync{
			Interval:      time.Duration(jsonCfg.Sync.Interval),
			FullSyncEvery: jsonCfg.Sync.FullSyncEvery,
		},
		Log: Log{
			File: jsonCfg.Log.File,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
