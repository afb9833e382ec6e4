// Package source loads element streams produced by a document extraction
// service.
//
// The service returns a JSON document (structuredData.json) holding one
// object per extracted element, optionally packed inside a zip archive
// together with rendered figures. Decode reads that JSON; File and HTTP
// are Source implementations that fetch the bytes from disk or from the
// service and detect the container by its magic bytes.
//
//	payload, err := source.File{Path: "result.zip"}.Load(ctx)
//	if err != nil {
//		return err
//	}
//	doc, warnings, err := docstruct.Reconstruct(payload.Elements)
//
// Element IDs are assigned from the element's index in the response.
package source
