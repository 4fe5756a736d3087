package common

import (
	"errors"
	"sync"
)

// RunParallel runs funcs concurrently and waits for all of them. It returns
// how many failed and their errors joined together.
func RunParallel(funcs ...func() error) (int, error) {
	var wg sync.WaitGroup
	errs := make(chan error, len(funcs))

	for _, fn := range funcs {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				errs <- err
			}
		}(fn)
	}

	wg.Wait()
	close(errs)

	var allErrs []error
	for err := range errs {
		allErrs = append(allErrs, err)
	}
	return len(allErrs), errors.Join(allErrs...)
}
