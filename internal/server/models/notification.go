package models

// Notification identifies one newly created original image in the object
// store. It is the pipeline's input contract; the trigger adapter is
// responsible for producing one Notification per event record.
type Notification struct {
	// Bucket is the originating container of the object.
	Bucket string
	// Key is the object's full path/filename within the bucket.
	Key string
}
