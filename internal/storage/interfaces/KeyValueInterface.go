package interfaces

// KeyValueInterface is the persistence collaborator of the snapshot store.
// A missing key is reported as ok == false with a nil error.
type KeyValueInterface interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Maintain() error
	Close() error
}
