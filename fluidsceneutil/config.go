/*
Copyright © 2026 the FluidScene authors.
This file is part of FluidScene.

FluidScene is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FluidScene is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FluidScene.  If not, see <http://www.gnu.org/licenses/>.
*/

package fluidsceneutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/phiflow/fluidscene"
	"github.com/sirupsen/logrus"
)

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("fluidscene: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogger directs the package log to w at the configured level.
func setLogger(w io.Writer) error {
	level, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("fluidscene: invalid log-level: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	fluidscene.Log = logger
	return nil
}

// parseValue interprets s as a JSON value, falling back to the
// string itself.
func parseValue(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// readTOML reads the parameters in a TOML file. Values are converted to
// the types that the JSON properties document stores.
func readTOML(path string) (map[string]interface{}, error) {
	var params map[string]interface{}
	if _, err := toml.DecodeFile(os.ExpandEnv(path), &params); err != nil {
		return nil, fmt.Errorf("fluidscene: reading parameter file: %v", err)
	}
	b, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("fluidscene: converting parameter file %s: %v", path, err)
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("fluidscene: converting parameter file %s: %v", path, err)
	}
	return out, nil
}
