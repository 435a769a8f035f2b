// Package config loads the teamcity-cli configuration.
//
// Configuration is read from ~/.config/teamcity-cli/config.yaml when
// present, with TEAMCITY_* environment variables applied on top. All
// settings are optional; a missing config file yields the built-in
// defaults. The config carries the server location and the credentials
// used for basic authentication against the REST API.
package config
