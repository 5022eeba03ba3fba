//go:build e2e

package container

import (
	"github.com/babylonlabs-io/token-economics/pkg"
)

// ImageConfig contains all images and their respective tags
// needed for running e2e tests.
type ImageConfig struct {
	MongoRepository    string
	MongoVersion       string
	RabbitMQRepository string
	RabbitMQVersion    string
}

const (
	dockerMongoRepository    = "mongo"
	dockerMongoVersionTag    = "7.0"
	dockerRabbitMQRepository = "rabbitmq"
	dockerRabbitMQVersionTag = "3.13"
)

// NewImageConfig returns ImageConfig needed for running e2e test.
// Tags can be overridden with MONGO_VERSION and RABBITMQ_VERSION.
func NewImageConfig() ImageConfig {
	return ImageConfig{
		MongoRepository:    dockerMongoRepository,
		MongoVersion:       pkg.Getenv("MONGO_VERSION", dockerMongoVersionTag),
		RabbitMQRepository: dockerRabbitMQRepository,
		RabbitMQVersion:    pkg.Getenv("RABBITMQ_VERSION", dockerRabbitMQVersionTag),
	}
}
