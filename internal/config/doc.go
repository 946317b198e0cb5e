// Package config loads, validates and renders the pipeline run
// configuration.
//
// Loading is side-effect free: nothing here touches the measurement set or
// the cluster, so the same file always resolves to the same model. The
// package owns the configuration half of the error taxonomy. ParseError
// covers text HCL rejects, MissingError covers required keys that were
// never set, and ValueError covers values outside their domain.
package config
