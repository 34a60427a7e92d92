// Package window generates analysis and FIR-design windows.
package window
