//go:build e2e

package container

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/babylonlabs-io/token-economics/pkg"
)

const (
	mongoReplicaSet = "rs0"
	RabbitUser      = "user"
	RabbitPassword  = "password"
)

// Manager is a wrapper around all Docker instances and the Docker API.
type Manager struct {
	cfg       ImageConfig
	pool      *dockertest.Pool
	resources map[string]*dockertest.Resource
}

func NewManager(t *testing.T) (*Manager, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}
	pool.MaxWait = 2 * time.Minute

	m := &Manager{
		cfg:       NewImageConfig(),
		pool:      pool,
		resources: make(map[string]*dockertest.Resource),
	}
	t.Cleanup(m.ClearResources)

	return m, nil
}

func (m *Manager) run(name string, opts *dockertest.RunOptions) (*dockertest.Resource, error) {
	// container names must be unique, old containers may still be around
	opts.Name = fmt.Sprintf("%s-e2e-%s", name, pkg.RandString(4))
	resource, err := m.pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, err
	}
	m.resources[name] = resource
	return resource, nil
}

// RunMongoResource starts a single node replica set and returns its
// connection string once the node is primary.
func (m *Manager) RunMongoResource() (string, error) {
	resource, err := m.run("mongo", &dockertest.RunOptions{
		Repository: m.cfg.MongoRepository,
		Tag:        m.cfg.MongoVersion,
		Cmd:        []string{"--replSet", mongoReplicaSet, "--bind_ip_all"},
	})
	if err != nil {
		return "", err
	}

	initiate := fmt.Sprintf(
		"try { rs.status() } catch (e) { rs.initiate({_id: %q, members: [{_id: 0, host: 'localhost:27017'}]}) }",
		mongoReplicaSet,
	)
	err = m.pool.Retry(func() error {
		code, err := resource.Exec([]string{"mongosh", "--quiet", "--eval", initiate}, dockertest.ExecOptions{})
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("rs.initiate exited with code %d", code)
		}

		code, err = resource.Exec([]string{
			"mongosh", "--quiet", "--eval", "if (!db.hello().isWritablePrimary) { quit(1) }",
		}, dockertest.ExecOptions{})
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("replica set has no primary yet")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("mongodb://localhost:%s/?directConnection=true", resource.GetPort("27017/tcp")), nil
}

// RunRabbitMQResource starts a broker and returns its host:port once it
// accepts connections.
func (m *Manager) RunRabbitMQResource() (string, error) {
	resource, err := m.run("rabbitmq", &dockertest.RunOptions{
		Repository: m.cfg.RabbitMQRepository,
		Tag:        m.cfg.RabbitMQVersion,
		Env: []string{
			"RABBITMQ_DEFAULT_USER=" + RabbitUser,
			"RABBITMQ_DEFAULT_PASS=" + RabbitPassword,
		},
	})
	if err != nil {
		return "", err
	}

	addr := fmt.Sprintf("localhost:%s", resource.GetPort("5672/tcp"))
	err = m.pool.Retry(func() error {
		conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s", RabbitUser, RabbitPassword, addr))
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		return "", err
	}

	return addr, nil
}

// ClearResources removes all outstanding Docker resources created by the Manager.
func (m *Manager) ClearResources() {
	for name, resource := range m.resources {
		if err := m.pool.Purge(resource); err != nil {
			fmt.Printf("failed to purge %s: %v\n", name, err)
		}
	}
}
