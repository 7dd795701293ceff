//go:build notoml

package format

func init() {
	register(TOML, func() (Codec, error) {
		return nil, &MissingOptionalSupportError{Format: TOML, Feature: "toml"}
	})
}
