package sdk

import (
	"errors"
	"fmt"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// FileContentsQueryData asks for the contents of a file.
type FileContentsQueryData struct {
	FileID *ledger.FileID `json:"fileId,omitempty"`
}

var _ QueryData[ledger.FileContents] = FileContentsQueryData{}

func (d FileContentsQueryData) toWire(header wire.QueryHeader) *wire.Query {
	q := &wire.FileGetContentsQuery{Header: header}
	if d.FileID != nil {
		id := wire.NewFileID(*d.FileID)
		q.FileID = &id
	}
	return &wire.Query{FileGetContents: q}
}

func (d FileContentsQueryData) method() string        { return wire.MethodFileGetContents }
func (d FileContentsQueryData) paymentRequired() bool { return true }
func (d FileContentsQueryData) tag() string           { return "fileContents" }

func (d FileContentsQueryData) clone() QueryData[ledger.FileContents] {
	d.FileID = clonePtr(d.FileID)
	return d
}

func (d FileContentsQueryData) cloneVariant() anyQueryVariant {
	return d.clone().(FileContentsQueryData)
}

func (d FileContentsQueryData) validate() error {
	if d.FileID == nil {
		return errors.New("file contents query needs a file ID")
	}
	return nil
}

func (d FileContentsQueryData) mapResponse(resp *wire.Response) (ledger.FileContents, error) {
	if resp.FileGetContents == nil || resp.FileGetContents.FileContents == nil {
		return ledger.FileContents{}, fmt.Errorf("expected a file contents answer")
	}
	contents := resp.FileGetContents.FileContents
	return ledger.FileContents{
		FileID:   contents.FileID.ToLedger(),
		Contents: contents.Contents,
	}, nil
}

func (d FileContentsQueryData) mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error) {
	contents, err := d.mapResponse(resp)
	if err != nil {
		return AnyQueryResponse{}, err
	}
	return AnyQueryResponse{FileContents: &contents}, nil
}

// FileContentsQuery gets the contents of a file.
type FileContentsQuery struct {
	Query[FileContentsQueryData, ledger.FileContents]
}

func NewFileContentsQuery() *FileContentsQuery {
	return &FileContentsQuery{}
}

func (q *FileContentsQuery) SetFileID(id ledger.FileID) *FileContentsQuery {
	q.data.FileID = &id
	return q
}
