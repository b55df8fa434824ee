package notify

import "errors"

var ErrClientQueueFull = errors.New("client message queue is full")
