/*
Package main is a digital identity wallet agent. It holds verifiable
credentials for one holder, runs the credential share and accept flows
against requesters and issuers, and keeps an encrypted store-and-forward
message channel open with did-auth bearer tokens.

You can use the wallet agent and its Go packages roughly for three
purposes:

1. As a CLI tool for the holder: onboard a cloud wallet account, log in
and out, share a credential to a requester, accept an offered credential,
and drain the message inbox either once or by polling.

2. As a library: the agent's flow controllers, wallet SDK and message
channel client are plain Go packages with injected collaborators, usable
from other hosts than the CLI.

3. As a reference for the wire formats: the share request and response
tokens, the did-auth channel handshake and the credential envelope
encryption are all implemented here.

# Sub-packages

The repo is structured to the following sub-packages:

	agent    framework packages: flows, wallet sdk, message channel,
	         cloud wallet client, session storage, settings
	cmds     command implementations with IO abstracted from the CLI
	cmd      the cobra command surface over cmds
*/
package main
