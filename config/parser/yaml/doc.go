// Package yaml reads YAML documents into the configuration value model.
//
// Decoding walks the github.com/goccy/go-yaml AST instead of unmarshaling into Go maps, so the
// key order of every mapping is preserved and every error carries a line and column.
//
// Only data the value model can represent is accepted:
//   - mapping keys must be bare keys ([A-Za-z0-9_-]+);
//   - null, merge keys and multi-document streams are rejected;
//   - integers outside the int64 range are rejected;
//   - aliases are expanded into independent copies of their anchored value.
//
// Usage:
//
//	root, err := yaml.NewParser().Parse(data, "config.yaml")
//	if err != nil {
//	    // err is a *cfgerr.ParseError
//	}
package yaml
