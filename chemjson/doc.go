/*
 * doc.go, part of rmsstats.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemjson implements serialization and unserialization of
// rmsstats data types. Its planned use is the communication of rmsstats
// programs with other, independent programs, such as a PyMOL plugin,
// which can be written in languages other than Go, as long as those
// languages can serialize and unserialize JSON.
// chemjson also implements the transmission of options, so an external
// program can transmit a structure and the options for a job to an rmsstats
// program and later collect the results, for instance, via UNIX pipes.
// Every message is one line of JSON.
package chemjson
