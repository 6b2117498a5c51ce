package facturx

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
)

// AttachmentName is the embedded-file name hybrid-invoice validators check.
const AttachmentName = "factur-x.xml"

// AttachmentMIME is the declared media type of the embedded XML.
const AttachmentMIME = "application/xml"

// Generator runs the full chain: normalize the stored invoice, generate the
// CII XML, render the visual PDF and fuse both into the Factur-X buffer.
// Any failure along the chain propagates; partial output is never produced.
type Generator struct {
	seller   config.Seller
	renderer *render.InvoiceRenderer
	logger   zerolog.Logger
}

// NewGenerator creates a Factur-X generator for the given seller identity.
func NewGenerator(seller config.Seller, logger zerolog.Logger) *Generator {
	return &Generator{
		seller:   seller,
		renderer: render.NewInvoiceRenderer(seller, logger),
		logger:   logger,
	}
}

// Generate produces the final hybrid invoice buffer for a stored invoice
// and its contact. The buffer is write-once: persisted or streamed by the
// caller, never mutated.
func (g *Generator) Generate(inv *model.Invoice, contact *model.Contact) ([]byte, error) {
	projection, err := Normalize(inv, contact, g.seller)
	if err != nil {
		return nil, err
	}
	xmlDoc, err := GenerateXML(projection)
	if err != nil {
		return nil, err
	}
	return g.Assemble(inv, contact, xmlDoc)
}

// Assemble renders the visual invoice with xmlDoc embedded as factur-x.xml,
// then rewrites the attachment dictionaries into the associated-file form
// hybrid-invoice validators require: the Data relationship on the file
// specification and the application/xml subtype on the embedded stream.
// The page is created explicitly by the renderer; the attachment is
// registered at document level.
func (g *Generator) Assemble(inv *model.Invoice, contact *model.Contact, xmlDoc []byte) ([]byte, error) {
	buf, err := g.renderer.RenderWithAttachments(inv, contact, []render.Attachment{{
		Content:     xmlDoc,
		Filename:    AttachmentName,
		Description: "Factur-X invoice data (" + AttachmentMIME + ")",
	}})
	if err != nil {
		return nil, err
	}
	out, err := associateEmbeddedFile(buf)
	if err != nil {
		return nil, fmt.Errorf("associating %s: %w", AttachmentName, err)
	}
	g.logger.Debug().Int("invoice", inv.Number).Int("bytes", len(out)).Msg("factur-x assembled")
	return out, nil
}

// associateEmbeddedFile post-processes the rendered buffer: the PDF writer
// emits a bare file specification, so AFRelationship and the embedded
// stream subtype are inserted here before the buffer leaves the package.
func associateEmbeddedFile(buf []byte) ([]byte, error) {
	conf := pdfConfig()
	// keep dictionaries out of object streams so the output stays
	// string-searchable and byte-stable
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	ctx, err := api.ReadContext(bytes.NewReader(buf), conf)
	if err != nil {
		return nil, err
	}

	tagged := false
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free {
			continue
		}
		switch o := entry.Object.(type) {
		case types.Dict:
			if t := o.Type(); t != nil && *t == "Filespec" {
				o["AFRelationship"] = types.Name("Data")
				tagged = true
			}
		case types.StreamDict:
			if t := o.Dict.Type(); t != nil && *t == "EmbeddedFile" {
				o.Dict["Subtype"] = types.Name(AttachmentMIME)
			}
		}
	}
	if !tagged {
		return nil, fmt.Errorf("no file specification found in rendered buffer")
	}

	// associated files need at least PDF 1.7; the renderer writes 1.3
	ctx.EnsureVersionForWriting()

	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
