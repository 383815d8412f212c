// Package metrics exposes prometheus collectors for every pipeline component.
package metrics

const namespace = "netstats7000"

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
