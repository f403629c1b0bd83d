// Package config defines the command line of joykey. Every flag can also be
// set from a JSON/YAML/TOML config file or a JOYKEY_* environment variable.
package config

import "github.com/Alia5/joykey/internal/cmd"

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"JOYKEY_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"JOYKEY_LOG_FILE"`
	RawFile string `help:"Write a hex dump of keyboard reports and LED feedback to this file" env:"JOYKEY_LOG_RAW_FILE"`
}

type CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (json, yaml or toml)" env:"JOYKEY_CONFIG" type:"path"`
	Log        Log    `embed:"" prefix:"log."`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Translate a joystick into a virtual keyboard"`
	Calibrate cmd.Calibrate     `cmd:"" help:"Measure and print the rest position of the stick"`
	Replay    cmd.Replay        `cmd:"" help:"Play a scripted input sequence and log the keyboard reports"`
	Config    cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
