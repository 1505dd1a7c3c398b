// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"encoding/json"
	"fmt"
	"maps"
)

type (
	// Shim describes a non-AMD script to the runtime loader.
	Shim struct {
		Deps    []string `json:"deps,omitempty"`
		Exports string   `json:"exports,omitempty"`
	}

	// LoaderConfig is the runtime loader configuration emitted in front of
	// the loader script as "var require = {...};".
	LoaderConfig struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string]string   `json:"paths,omitempty"`
		Shim    map[string]Shim     `json:"shim,omitempty"`
		Bundles map[string][]string `json:"bundles,omitempty"`
	}
)

// Script prefixes content with the loader configuration assignment.
// Map keys are emitted in sorted order, so the output is reproducible.
func (c LoaderConfig) Script(content string) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode loader config: %w", err)
	}
	return "var require = " + string(data) + ";" + content, nil
}

// defaultPaths merges the configured paths with an "<app>/<alias>" entry for
// every installed app. Configured entries win over generated ones.
func defaultPaths(configured map[string]string, appLabels []string, appAlias string) map[string]string {
	paths := make(map[string]string, len(configured)+len(appLabels))
	if appAlias != "" {
		for _, label := range appLabels {
			paths[label] = label + "/" + appAlias
		}
	}
	maps.Copy(paths, configured)
	if len(paths) == 0 {
		return nil
	}
	return paths
}
