package notify

import (
	"log"

	"maisonlux-backend/models"
)

// Notifier queues order confirmations for a background worker. Delivery to an
// actual mail provider happens outside this service; the worker records what
// would be sent.
type Notifier struct {
	queue chan *models.Order
}

func New(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 100
	}
	return &Notifier{queue: make(chan *models.Order, buffer)}
}

// Start launches the worker goroutine draining the queue.
func (n *Notifier) Start() {
	go n.run()
}

func (n *Notifier) run() {
	for order := range n.queue {
		log.Printf("notify: order %s confirmed, %d item(s), total %.2f %s",
			order.Code, len(order.Items), order.Total, order.Currency)
	}
}

// Enqueue hands an order to the worker without blocking checkout. A full
// queue drops the notification and logs it; the order itself is already
// persisted.
func (n *Notifier) Enqueue(order *models.Order) {
	select {
	case n.queue <- order:
	default:
		log.Printf("notify: queue full, dropping confirmation for order %s", order.Code)
	}
}

// Close stops the worker once the queue drains.
func (n *Notifier) Close() {
	close(n.queue)
}
