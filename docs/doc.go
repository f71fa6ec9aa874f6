// Package docs verifies that documentation examples stay in sync with the configuration schema.
package docs
