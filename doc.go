/*
Package poet hosts reactive screens: small state machines whose presentation
is derived entirely from observable values.

# Concept

Every screen is split in three parts. The Evaluator owns the business state as
a sequence of typed steps and reacts to intents. The Translator turns each step
into display-ready cells (titles, validity flags, actions) and one-shot
signals (alerts, bezels, dismissals). Presentation only subscribes to the
translator and sends intents back through a weak handle, so closing a screen
releases everything it built.

The building blocks live in sub-packages:

  - reactive: Cell (current value, replayed on subscribe) and Channel (events)
  - step: a step container with optional transition tables and hooks
  - screen: actions, signals, executors and the Owner/Handle pair
  - screens: the built-in login, countdown, retail and builder screens
  - session: live screen instances addressed by id for remote presenters

# Usage

The Engine wires the built-in screens to the session manager and exposes them
over HTTP and MCP.

	package main

	import (
		"log"
		"net/http"

		"github.com/asgeY/poet"
		"github.com/asgeY/poet/pkg/adapters/memory"
	)

	func main() {
		auth := memory.NewAuthenticator(map[string]string{"postman": "password"})
		eng := poet.New(poet.WithAuthenticator(auth))

		log.Fatal(http.ListenAndServe(":8080", eng.Handler()))
	}

A presenter that lives in the same process can skip sessions and bind to a
screen directly:

	s := login.New(auth)
	defer s.Close()
	s.Translator.Alerts().Subscribe(func(a screen.Alert) { fmt.Println(a.Title) })
*/
package poet
