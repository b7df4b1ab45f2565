package container

import "go.uber.org/zap"

// MethodFunc is a bound method callback. It receives the instance the method
// is called on and the container.
type MethodFunc func(instance any, c *Container) (any, error)

// MethodKey returns the "Type@method" key a method binding is stored under.
func MethodKey(typ, method string) string { return typ + "@" + method }

// BindMethod registers fn under method, a "Type@method" key.
//
//	// Laravel: $app->bindMethod([Job::class, 'handle'], fn($job, $app) => $job->handle($app->make(Mailer::class)))
//	c.BindMethod(container.MethodKey("Job", "handle"), func(job any, c *container.Container) (any, error) {
//	    return nil, job.(*Job).Handle(c)
//	})
func (c *Container) BindMethod(method string, fn MethodFunc) {
	r := c.reg
	r.mu.Lock()
	r.methodBindings[method] = fn
	r.mu.Unlock()
	r.log.Debug("Method binding registered", zap.String("method", method))
}

// HasMethodBinding reports whether method has a binding.
func (c *Container) HasMethodBinding(method string) bool {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.methodBindings[method]
	return ok
}

// CallMethodBinding runs the callback bound to method against instance.
func (c *Container) CallMethodBinding(method string, instance any) (any, error) {
	r := c.reg
	r.mu.RLock()
	fn, ok := r.methodBindings[method]
	r.mu.RUnlock()
	if !ok {
		return nil, &MethodNotBoundError{Method: method}
	}
	return fn(instance, c)
}
