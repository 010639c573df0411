/*
Package session hosts live screen instances for remote presenters.

A Manager opens screens by kind from a registry of factories, gives each one
its own screen.Loop as its logical thread, and routes named intents, snapshots
and update streams to it. All calls into a screen are marshaled onto its loop,
so evaluators and translators never see concurrent access.
*/
package session
