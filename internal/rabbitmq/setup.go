package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена обменника, очереди и ключа маршрутизации уведомлений об обновлении курсов.
const (
	NotificationsExchange = "notifications"
	CourseUpdatedQueue    = "notifications.course_updated"
	CourseUpdatedKey      = "course.updated"
)

// SetupChannel открывает канал, объявляет durable-обменник notifications и
// очередь уведомлений об обновлении курсов, привязанную по ключу course.updated.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		NotificationsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		CourseUpdatedQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, CourseUpdatedQueue, err)
	}

	err = ch.QueueBind(
		CourseUpdatedQueue,
		CourseUpdatedKey,
		NotificationsExchange,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, CourseUpdatedQueue, err)
	}

	return ch, nil
}
