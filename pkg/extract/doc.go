// Package extract converts the text members of an archive into CSV rows.
//
// A run is a single forward pass: every member is classified, eligible
// members are read and decoded, and each decoded member becomes one
// (Document_Name, Text_Content) row. A member that cannot be read or decoded
// is recorded as failed and the run continues; only archive-level and
// output-level faults abort a run.
//
//	ex, err := extract.New(extract.Config{
//	    ArchivePath: "docs.zip",
//	    OutputPath:  "docs.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := ex.Run(ctx)
package extract
