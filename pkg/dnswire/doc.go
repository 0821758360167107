/*
Package dnswire builds the raw DNS query datagrams sent by the benchmark and inspects the responses.
Only the pieces needed for load generation are implemented: label encoding of the question name,
packing of a single A/IN question with a fixed header and reading of the answer count from a response.
*/
package dnswire
