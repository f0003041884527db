// Package snapshot exports generations as JSON documents.
//
// A snapshot lists every node of a generation in render order with its ID,
// parent ID, key, kind and state. Snapshots are written to a Sink: a local
// directory or an S3 bucket.
//
//	sink, err := snapshot.Open("s3://my-bucket/trees", nil)
//	if err != nil {
//	    return err
//	}
//	data, err := snapshot.Encode(res.Root)
//	if err != nil {
//	    return err
//	}
//	err = sink.Put(ctx, snapshot.Name(res.Generation), data)
package snapshot
