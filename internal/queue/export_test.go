package queue

import amqp "github.com/rabbitmq/amqp091-go"

// Connection returns the connection events are currently published on.
func (qm *QueueManager) Connection() *amqp.Connection {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	return qm.conn
}

// CloseChannel closes the publishing channel and leaves its connection open.
func (qm *QueueManager) CloseChannel() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	return qm.channel.Close()
}
