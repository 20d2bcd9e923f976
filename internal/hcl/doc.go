// Package hcl provides the concrete HCL implementation of the sweep loading
// interface defined in the `config` package. It is responsible for file
// parsing, HCL-to-model translation and grid expansion.
package hcl
