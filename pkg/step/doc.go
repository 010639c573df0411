/*
Package step implements the step container: a reactive cell whose value is the
complete configuration of a screen at one moment ("step").

A screen defines its steps as a closed sum type: an interface that embeds Step and
adds an unexported marker method, with one struct per case.

	type Step interface {
		step.Step
		isLoginStep()
	}

The evaluator owns the Container and is the only caller of Set. Translators get the
read-only reactive.Value from Reader and re-derive everything from each step.

Any step may follow any step unless a Table is attached with WithTable.
*/
package step
