/*
Package screen holds the Evaluator/Translator convention and the small values
that travel between the two halves of a screen.

  - Evaluator: owns a step.Container, receives intents through Evaluate and
    decides the next step. Intents that do not apply to the current step are
    ignored.
  - Translator: subscribes to the evaluator's steps and re-derives every
    observable it owns from each one. Translate must be total and idempotent.
  - Presentation: subscribes to the translator and calls Evaluate. It never
    touches steps.

Asynchronous collaborators run through an Executor, which brings their completions
back onto the screen's single logical thread. Owner and Handle model the lifetime
split between the screen's root scope and the presentation that drives it.
*/
package screen
