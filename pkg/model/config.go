// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const configDir = ".starsim"

// LoadConfig loads the model from a named config file searched in the working directory,
// $HOME/.starsim and /etc/starsim, and applies its settings preset
func LoadConfig(model *Model, configname string) error {
	if err := ReadConfig(model, configname); err != nil {
		return err
	}
	return model.ApplySettings()
}

// ReadConfig loads the model without applying the settings preset, so callers can override
// the preset first
func ReadConfig(model *Model, configname string) error {
	if configname == "" {
		configname = "model"
	}
	v := viper.New()
	v.SetConfigName(configname)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/" + configDir)
	v.AddConfigPath("/etc/starsim")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	log.Infof("Loading model from %s", v.ConfigFileUsed())
	return v.Unmarshal(model)
}

// LoadConfigFromBytes loads the model from a yaml document and applies its settings preset
func LoadConfigFromBytes(model *Model, data []byte) error {
	if err := ParseConfig(model, data); err != nil {
		return err
	}
	return model.ApplySettings()
}

// ParseConfig parses a yaml document without applying the settings preset
func ParseConfig(model *Model, data []byte) error {
	if err := yaml.Unmarshal(data, model); err != nil {
		return errors.New(errors.Invalid, "unable to parse model: %v", err)
	}
	return nil
}
