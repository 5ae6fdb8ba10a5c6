// Package constants holds shared domain-level constants.
package constants

// Pub/Sub provider selectors used by the event publisher configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderKafka  = "kafka"
	PubSubProviderGoogle = "google"
)

// Deployment environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
