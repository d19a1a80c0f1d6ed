//go:build !polymesh_release

package mesh

const assertionsEnabled = true
