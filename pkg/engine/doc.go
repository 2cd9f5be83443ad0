/*
Package engine executes a deterministic Turing machine one transition at a time.

A Machine owns its tape and references a shared, read-only
domain.Configuration. It is single-threaded and synchronous: Step performs
exactly one transition and never blocks. Independent machines built from
the same Configuration may run on separate goroutines.

	m, err := engine.New(conf, '_', engine.PolicyStrict)
	if err != nil {
		return err
	}
	m.Initialize([]rune("111"))
	for m.Status() == domain.StatusActive {
		if err := m.Step(); err != nil {
			return err
		}
	}

Looping on Status is the reliable way to drive a machine. HasHalted keeps
the historical predicate, which is inverted under PolicyPermissive.
*/
package engine
