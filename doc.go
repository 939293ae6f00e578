// cups-sub001 - a capability engine for PPD printer description files
// Copyright (C) 2026  The cups-sub001 developers
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package ppd parses PostScript Printer Description (PPD) files into an
// in-memory capability model, answers queries against it, records per-job
// choice selections, and assembles the control code those selections call
// for.
//
// The typical flow is Open or Read to build a Document, MarkDefaults plus
// Mark to select job options, and EmitString or EmitJCL to produce the
// code for each output section.  The cache subpackage translates a
// Document's vendor names into the standard job-ticket vocabulary, and the
// synth subpackage fabricates a PPD from printer-reported capabilities
// when no vendor file exists.
package ppd
