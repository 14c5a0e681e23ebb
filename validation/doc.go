// Package validation provides error-collecting validation for pipeline
// documents and struct tag validation for configuration.
//
// The pipeline loader validates collect-all, not fail-fast: a Collector
// accumulates every violation so the caller sees the complete picture in a
// single error.
//
//	c := validation.NewCollector()
//	c.Add("denoise", "strength", "must be between 0 and 1")
//	c.Add("mix->master", "", "references unknown node")
//	err := c.Error() // one error, two violations
package validation
