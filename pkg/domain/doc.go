/*
Package domain contains the plain data shared by screens and the collaborators
they depend on: credentials and authentication results, catalog products and
orders, and the sentinel errors adapters map onto their transports.

It is free of I/O and of any reactive machinery.
*/
package domain
