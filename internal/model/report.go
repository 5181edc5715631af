package model

// Statistics is a read-only aggregate over active documents and profiles.
type Statistics struct {
	DocumentsByStatus map[DocumentStatus]int `json:"documents_by_status"`
	DocumentsByType   map[DocumentType]int   `json:"documents_by_type"`
	ProfilesByStatus  map[ProfileStatus]int  `json:"profiles_by_status"`
	TotalDocuments    int                    `json:"total_documents"`
	TotalProfiles     int                    `json:"total_profiles"`
	ExpiringSoon      int                    `json:"expiring_soon"`
}

// DisplayCompletion is the profile-page progress metric: PAN, Aadhar and at least
// one other document are each worth a third.
type DisplayCompletion struct {
	PanUploaded     bool `json:"pan_uploaded"`
	AadharUploaded  bool `json:"aadhar_uploaded"`
	OtherUploaded   bool `json:"other_uploaded"`
	UploadedCount   int  `json:"uploaded_count"`
	PercentUploaded int  `json:"percent_uploaded"`
}
