/*
Package agent holds the wallet agent's framework packages. The agent package
is empty itself, all the functionality is inside sub-packages.

Summary of the packages:

	cloudapi  REST client of the cloud wallet API: accounts and the
	          signed credential directory
	flow      credential share and accept flows as explicit state machines
	msg       encrypted store-and-forward message channel with did-auth
	          bearer tokens
	sdk       the wallet itself: keys, DID, token signing and the message
	          envelope encryption
	session   persistent wallet session over the storage wrapper
	storage   bbolt backed encrypted storage behind aries interfaces
	utils     helpers for version, settings, nonces and ids
	vc        verifiable credential model and display classification
*/
package agent
