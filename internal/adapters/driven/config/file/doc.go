// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the kith config directory (~/.kith, or
// $KITH_CONFIG_DIR).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable analysis prompt templates
package file
