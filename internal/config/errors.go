// Package config loads revtrail's project and global configuration files.
package config

import "errors"

var ErrConfigFileNotFound = errors.New("config file not found")
var ErrConfigFileRead = errors.New("cannot read config file")
var ErrConfigInvalid = errors.New("invalid config file")
var ErrStoreDirEmpty = errors.New("store_dir cannot be empty")
