// Package syncs holds small concurrency helpers.
package syncs

// Semaphore bounds the number of concurrent holders.
type Semaphore chan bool

// NewSemaphore returns a semaphore with n slots, at least one.
func NewSemaphore(n int) Semaphore {
	if n < 1 {
		n = 1
	}
	return make(chan bool, n)
}

func (s Semaphore) Acquire() {
	s <- true
}

func (s Semaphore) Release() {
	<-s
}
