// Package environment names the deployment environments the service knows
// about and normalizes the spellings operators put in APP_ENV.
package environment
