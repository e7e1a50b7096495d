// Package vc implements the credential data model of the wallet agent. A
// credential is a signed claim record whose semantic type is the LAST element
// of its type sequence. The package keeps the original JSON untouched so that
// signatures stay verifiable, and offers typed access to the few fields the
// wallet needs for listing and classification.
package vc

import (
	"encoding/json"
	"strings"
)

// Credential type tags recognized by the wallet. Everything else falls into
// KindOther and is rendered as the raw type sequence.
const (
	TypeNamePerson       = "NameCredentialPersonV1"
	TypeIDDocumentPerson = "IDDocumentCredentialPersonV1"

	DocTypeDrivingLicense = "driving_license"
)

// Kind is the classification of a credential, keyed by the last element of
// its type sequence.
type Kind int

const (
	KindOther Kind = iota
	KindName
	KindIDDocument
)

// Credential is one verifiable credential. Raw carries the full original
// JSON and is what gets signed, transmitted, and persisted. The parsed
// fields exist for display and selection only.
type Credential struct {
	Raw json.RawMessage `json:"-"`

	Types   []string `json:"type"`
	Subject Subject  `json:"credentialSubject"`
}

type Subject struct {
	Data SubjectData `json:"data"`
}

// SubjectData is the claim payload. Only the fields the wallet UI reads are
// typed, the rest travels in Raw.
type SubjectData struct {
	GivenName     string      `json:"givenName,omitempty"`
	FamilyName    string      `json:"familyName,omitempty"`
	HasIDDocument *IDDocument `json:"hasIDDocument,omitempty"`
}

// IDDocument mirrors the nested identity document sub-record: the document
// type lives behind a second hasIDDocument level.
type IDDocument struct {
	HasIDDocument IDDocumentData `json:"hasIDDocument"`
}

type IDDocumentData struct {
	DocumentType string `json:"documentType,omitempty"`
}

// Parse builds a Credential from its JSON form and keeps the original bytes
// in Raw.
func Parse(data []byte) (c *Credential, err error) {
	c = &Credential{}
	if err = json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.Raw = append(c.Raw[:0:0], data...)
	return c, nil
}

// MarshalJSON returns the untouched original JSON when it's available. A
// credential round trips byte for byte through the wallet.
func (c *Credential) MarshalJSON() ([]byte, error) {
	if c.Raw != nil {
		return c.Raw, nil
	}
	type alias Credential
	return json.Marshal((*alias)(c))
}

// LastType returns the authoritative element of the type sequence.
func (c *Credential) LastType() string {
	if len(c.Types) == 0 {
		return ""
	}
	return c.Types[len(c.Types)-1]
}

// Kind classifies the credential by its last type tag.
func (c *Credential) Kind() Kind {
	switch c.LastType() {
	case TypeNamePerson:
		return KindName
	case TypeIDDocumentPerson:
		return KindIDDocument
	}
	return KindOther
}

// DocumentType returns the nested identity document type or empty when the
// credential carries no identity document record.
func (c *Credential) DocumentType() string {
	if c.Subject.Data.HasIDDocument == nil {
		return ""
	}
	return c.Subject.Data.HasIDDocument.HasIDDocument.DocumentType
}

// DisplayLabel is the classification shown on credential listings. Name
// credentials label as "Name Document", identity documents of driving
// license type as "Driving License", and any other type combination renders
// the raw type sequence as is.
func (c *Credential) DisplayLabel() string {
	switch c.Kind() {
	case KindName:
		return "Name Document"
	case KindIDDocument:
		if c.DocumentType() == DocTypeDrivingLicense {
			return "Driving License"
		}
	}
	return strings.Join(c.Types, ", ")
}

// HolderName renders the subject's given and family name for listings.
func (c *Credential) HolderName() string {
	return strings.TrimSpace(
		c.Subject.Data.GivenName + " " + c.Subject.Data.FamilyName)
}
