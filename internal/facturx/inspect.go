package facturx

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func pdfConfig() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// Inspect checks that buf is a readable PDF carrying factur-x.xml as an
// associated file: present in the embedded-files name tree, declared with
// the Data relationship on its file specification and the application/xml
// subtype on the embedded stream. These are the properties hybrid-invoice
// validators check; a buffer failing any of them must not be accepted as a
// valid Factur-X document.
func Inspect(buf []byte) error {
	conf := pdfConfig()

	if err := api.Validate(bytes.NewReader(buf), conf); err != nil {
		return fmt.Errorf("pdf container invalid: %w", err)
	}

	atts, err := api.Attachments(bytes.NewReader(buf), conf)
	if err != nil {
		return fmt.Errorf("listing attachments: %w", err)
	}
	found := false
	for _, a := range atts {
		if a.FileName == AttachmentName {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("embedded file %q not found", AttachmentName)
	}

	ctx, err := api.ReadContext(bytes.NewReader(buf), conf)
	if err != nil {
		return fmt.Errorf("reading pdf: %w", err)
	}
	if !hasDataRelationship(ctx) {
		return fmt.Errorf("file specification for %q lacks the Data relationship", AttachmentName)
	}
	if !hasXMLSubtype(ctx) {
		return fmt.Errorf("embedded file %q does not declare the %s subtype", AttachmentName, AttachmentMIME)
	}
	return nil
}

func hasDataRelationship(ctx *pdfmodel.Context) bool {
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free {
			continue
		}
		d, ok := entry.Object.(types.Dict)
		if !ok {
			continue
		}
		if t := d.Type(); t == nil || *t != "Filespec" {
			continue
		}
		if n, ok := d["AFRelationship"].(types.Name); ok && n.Value() == "Data" {
			return true
		}
	}
	return false
}

func hasXMLSubtype(ctx *pdfmodel.Context) bool {
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if t := sd.Dict.Type(); t == nil || *t != "EmbeddedFile" {
			continue
		}
		if n, ok := sd.Dict["Subtype"].(types.Name); ok && n.Value() == AttachmentMIME {
			return true
		}
	}
	return false
}
