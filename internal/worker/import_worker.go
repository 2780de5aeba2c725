package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"visaguide/internal/app"
	rabbitmqClient "visaguide/internal/platform/rabbitmq"
)

// Importer is the slice of the visa service the worker needs.
type Importer interface {
	ImportBatch(ctx context.Context, raw []byte) (int, error)
}

// Acknowledger settles one delivery. *amqp.Delivery satisfies it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type ImportWorker struct {
	conn      *amqp.Connection
	importer  Importer
	queueName string
	logger    logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewImportWorker(conn *amqp.Connection, importer Importer, queueName string, logger logrus.FieldLogger) *ImportWorker {
	return &ImportWorker{
		conn:      conn,
		importer:  importer,
		queueName: queueName,
		logger:    logger.WithField("queue", queueName),
	}
}

func (w *ImportWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmqClient.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	// One unacked batch at a time; each one is a full transaction.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				// A batch already taken finishes even if Close is called.
				w.Handle(context.WithoutCancel(workerCtx), &d, d.Body)
			}
		}
	}()

	w.logger.Info("import worker started")
	return nil
}

// Handle imports one payload and settles it. Payloads that are not a JSON
// array are dropped; any other failure requeues the payload.
func (w *ImportWorker) Handle(ctx context.Context, ack Acknowledger, body []byte) {
	n, err := w.importer.ImportBatch(ctx, body)
	if err != nil {
		entry := w.logger.WithError(err)
		requeue := !errors.Is(err, app.ErrImportNotArray)
		if requeue {
			entry.Error("import payload failed, requeueing")
		} else {
			entry.Warn("drop import payload: not a JSON array")
		}
		if nackErr := ack.Nack(false, requeue); nackErr != nil {
			w.logger.WithError(nackErr).Error("nack import payload failed")
		}
		return
	}

	w.logger.WithField("imported", n).Info("import payload processed")
	if ackErr := ack.Ack(false); ackErr != nil {
		w.logger.WithError(ackErr).Error("ack import payload failed")
	}
}

func (w *ImportWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
