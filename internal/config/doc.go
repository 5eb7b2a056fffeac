// Package config manages gabuild's project configuration using Viper.
//
// Values are read from an optional .gabuild.yaml in the working directory and
// from GABUILD_* environment variables, over built-in defaults that match the
// SDK repository layout. The config file is validated against an embedded
// JSON schema before it is loaded.
package config
