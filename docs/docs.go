// Package docs registers the OpenAPI document with swag so it can be served
// as JSON.
package docs

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

type openAPIDoc struct {
	once sync.Once
	json string
}

// ReadDoc converts the embedded YAML once and returns it as JSON.
func (d *openAPIDoc) ReadDoc() string {
	d.once.Do(func() {
		var doc map[string]interface{}
		if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
			d.json = "{}"
			return
		}
		out, err := json.Marshal(doc)
		if err != nil {
			d.json = "{}"
			return
		}
		d.json = string(out)
	})
	return d.json
}

func init() {
	swag.Register(swag.Name, &openAPIDoc{})
}

// YAML returns the raw embedded document.
func YAML() []byte {
	return openAPIYAML
}
