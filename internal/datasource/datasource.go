package datasource

import "time"

const (
	TypeRaw     = "raw"
	TypeDerived = "derived"
)

// DataSource is the wire representation of a registered producer of
// fitness data (an app or a device stream).
type DataSource struct {
	DataStreamID   string       `json:"dataStreamId"`
	DataStreamName string       `json:"dataStreamName"`
	Type           string       `json:"type"`
	DataType       DataType     `json:"dataType"`
	Device         *Device      `json:"device,omitempty"`
	Application    *Application `json:"application,omitempty"`
}

type DataType struct {
	Name  string          `json:"name"`
	Field []DataTypeField `json:"field"`
}

type DataTypeField struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Optional bool   `json:"optional,omitempty"`
}

type Device struct {
	UID          string `json:"uid"`
	Type         string `json:"type"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Version      string `json:"version"`
}

type Application struct {
	PackageName string `json:"packageName"`
	Version     string `json:"version,omitempty"`
	DetailsURL  string `json:"detailsUrl,omitempty"`
}

// Record is the storage row shape of a data source.
type Record struct {
	ID             int
	UserID         string
	DataStreamID   string
	DataStreamName string
	Type           string
	DataTypeName   string

	DeviceUID          *string
	DeviceType         *string
	DeviceManufacturer *string
	DeviceModel        *string
	DeviceVersion      *string

	ApplicationPackageName *string
	ApplicationVersion     *string
	ApplicationDetailsURL  *string

	CreatedAt time.Time
}

// ToWire translates a storage row to the wire shape. The device block is
// present only when a device uid was stored, the application block only
// when a package name was stored, matching the storage row semantics.
func (r *Record) ToWire() DataSource {
	ds := DataSource{
		DataStreamID:   r.DataStreamID,
		DataStreamName: r.DataStreamName,
		Type:           r.Type,
		DataType: DataType{
			Name:  r.DataTypeName,
			Field: []DataTypeField{},
		},
	}

	if r.DeviceUID != nil {
		ds.Device = &Device{
			UID:          *r.DeviceUID,
			Type:         strOrEmpty(r.DeviceType),
			Manufacturer: strOrEmpty(r.DeviceManufacturer),
			Model:        strOrEmpty(r.DeviceModel),
			Version:      strOrEmpty(r.DeviceVersion),
		}
	}

	if r.ApplicationPackageName != nil {
		ds.Application = &Application{
			PackageName: *r.ApplicationPackageName,
			Version:     strOrEmpty(r.ApplicationVersion),
			DetailsURL:  strOrEmpty(r.ApplicationDetailsURL),
		}
	}

	return ds
}

// ToRecord translates the wire shape to a storage row owned by userID.
func (ds *DataSource) ToRecord(userID string) *Record {
	rec := &Record{
		UserID:         userID,
		DataStreamID:   ds.DataStreamID,
		DataStreamName: ds.DataStreamName,
		Type:           ds.Type,
		DataTypeName:   ds.DataType.Name,
	}

	if ds.Device != nil {
		rec.DeviceUID = &ds.Device.UID
		rec.DeviceType = &ds.Device.Type
		rec.DeviceManufacturer = &ds.Device.Manufacturer
		rec.DeviceModel = &ds.Device.Model
		rec.DeviceVersion = &ds.Device.Version
	}

	if ds.Application != nil {
		rec.ApplicationPackageName = &ds.Application.PackageName
		if ds.Application.Version != "" {
			rec.ApplicationVersion = &ds.Application.Version
		}
		if ds.Application.DetailsURL != "" {
			rec.ApplicationDetailsURL = &ds.Application.DetailsURL
		}
	}

	return rec
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
