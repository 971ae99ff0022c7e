// Package repository define interfaces de acceso a datos.
package repository
