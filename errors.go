package hivejdbc

import (
	"errors"
	"sync"
)

// ErrorClassifier inspects the cause chain of a driver error. It returns a
// replacement error when it recognizes the failure, nil otherwise.
type ErrorClassifier func(chain []error) error

var classifiers struct {
	sync.RWMutex
	list []ErrorClassifier
}

// RegisterErrorClassifier adds c to the classifiers consulted when a driver
// entry point fails. Classifiers run in registration order and the first
// non-nil result wins.
func RegisterErrorClassifier(c ErrorClassifier) {
	if c == nil {
		panic("hivejdbc: RegisterErrorClassifier classifier is nil")
	}
	classifiers.Lock()
	defer classifiers.Unlock()
	classifiers.list = append(classifiers.list, c)
}

// CauseChain flattens err and everything it wraps, outermost first.
func CauseChain(err error) []error {
	var chain []error
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			chain = append(chain, e)
			if multi, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range multi.Unwrap() {
					walk(inner)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return chain
}

// classify returns err unchanged unless a registered classifier maps it.
func classify(err error) error {
	classifiers.RLock()
	list := classifiers.list
	classifiers.RUnlock()
	if len(list) == 0 {
		return err
	}
	chain := CauseChain(err)
	for _, c := range list {
		if mapped := c(chain); mapped != nil {
			return mapped
		}
	}
	return err
}
