// Package secret resolves credentials referenced from configuration.
//
// It supports strict ${VAR} environment expansion and pluggable providers
// addressed with "secretref:<provider>:<ref>" values, so the budgeting API
// token never has to appear literally in configuration.
package secret
