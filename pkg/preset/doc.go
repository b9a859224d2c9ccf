// Package preset stores institution-specific style presets: the static tier
// of the cascade. A preset is a catalog-shaped JSON or YAML document named
// after the institution identifier.
//
// Lookups never fail loudly. A missing preset is simply absent; an
// unreadable or malformed one is logged and treated as absent so a bad file
// cannot block document generation.
package preset
