/*
Package dnsbench contains the DNS load engine. A run is described by the Benchmark struct, which is
validated with Benchmark.Probe by sending a single query that has to be answered, and then executed
using Benchmark.Run. Run splits the requested number of queries between concurrent workers, each
sending plain UDP queries to the nameserver one at a time, and returns a slice of ResultStats with
one element per worker. Summarize folds those results into a Summary.
*/
package dnsbench
