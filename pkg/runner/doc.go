/*
Package runner drives a machine from its initial tape to a halt.

The engine package performs single steps. Runner adds the loop around it:
a step limit, context cancellation, an optional trace of every transition
and structured logging of the outcome.

# Usage

	r := runner.New[rune](
		runner.WithPolicy[rune](engine.PolicyStrict),
		runner.WithMaxSteps[rune](10_000),
		runner.WithLogger[rune](logger),
	)

	res, err := r.Run(ctx, prog.Config, prog.Blank, []rune(prog.Memory))
	if err != nil {
		return err
	}
	fmt.Println(res.Status, string(res.Tape))
*/
package runner
