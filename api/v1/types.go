package v1

// RequestStatus is the lifecycle status of a Request.
type RequestStatus string

const (
	RequestStatusDraft      RequestStatus = "draft"
	RequestStatusSubmitted  RequestStatus = "submitted"
	RequestStatusModeration RequestStatus = "moderation"
	RequestStatusCompleted  RequestStatus = "completed"
)

// TaskStatus is the status of a ParsingTask.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusApproved    TaskStatus = "approved"
	TaskStatusRejected    TaskStatus = "rejected"
	TaskStatusNeedsReview TaskStatus = "needs_review"
)

// ParseMethod is the execution strategy used by the remote service to crawl suppliers.
type ParseMethod string

const (
	ParseMethodInProcess         ParseMethod = "in-process"
	ParseMethodQueuedWorker      ParseMethod = "queued-worker"
	ParseMethodBrowserAutomation ParseMethod = "browser-automation"
)

// Cabinet is one of the two top-level contexts.
type Cabinet string

const (
	CabinetUser      Cabinet = "user"
	CabinetModerator Cabinet = "moderator"
)

// Request is a submitted document and its extracted line items.
type Request struct {
	Id            int64         `json:"id" validate:"required,gt=0"`
	Filename      string        `json:"filename"`
	Status        RequestStatus `json:"status" validate:"required,oneof=draft submitted moderation completed"`
	Items         []Position    `json:"items,omitempty" validate:"dive"`
	ItemsCount    int           `json:"items_count" validate:"gte=0"`
	ContactsCount int           `json:"contacts_count" validate:"gte=0"`
	CreatedAt     Timestamp     `json:"created_at"`
}

// RequestDetail is a Request with its full Position list and the contacts found in the database.
type RequestDetail struct {
	Id         int64         `json:"id" validate:"required,gt=0"`
	Filename   string        `json:"filename"`
	Status     RequestStatus `json:"status" validate:"required,oneof=draft submitted moderation completed"`
	Items      []Position    `json:"items" validate:"dive"`
	DbContacts []Contact     `json:"db_contacts"`
	CreatedAt  Timestamp     `json:"created_at"`
}

// Position is one line item of a Request.
type Position struct {
	Pos  int      `json:"pos" validate:"gte=0"`
	Name string   `json:"name" validate:"required"`
	Unit string   `json:"unit"`
	Qty  Quantity `json:"qty"`
}

type Contact struct {
	SupplierName   string `json:"supplier_name"`
	SupplierInn    string `json:"supplier_inn"`
	SupplierDomain string `json:"supplier_domain"`
	ContactName    string `json:"contact_name"`
	ContactPhone   string `json:"contact_phone"`
	ContactEmail   string `json:"contact_email"`
}

// ParsingTask is a unit of moderator work resolving suppliers for one Position.
type ParsingTask struct {
	TaskId      int64      `json:"task_id" validate:"required,gt=0"`
	RequestId   int64      `json:"request_id" validate:"required,gt=0"`
	ItemName    string     `json:"item_name"`
	SearchQuery string     `json:"search_query"`
	Status      TaskStatus `json:"status" validate:"required,oneof=pending approved rejected needs_review"`
	CreatedAt   Timestamp  `json:"created_at"`
}

type TaskDetail struct {
	TaskId      int64       `json:"task_id" validate:"required,gt=0"`
	RequestId   int64       `json:"request_id" validate:"required,gt=0"`
	ItemName    string      `json:"item_name"`
	SearchQuery string      `json:"search_query"`
	Status      TaskStatus  `json:"status" validate:"required,oneof=pending approved rejected needs_review"`
	Urls        []ParsedURL `json:"urls" validate:"dive"`
}

type ParsedURL struct {
	Id          int64  `json:"id" validate:"required,gt=0"`
	Url         string `json:"url" validate:"required"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
}

// TaskProgress is the transient progress of a pending task.
type TaskProgress struct {
	TaskId      int64      `json:"task_id" validate:"required,gt=0"`
	Status      TaskStatus `json:"status" validate:"required,oneof=pending approved rejected needs_review"`
	StartedAt   *Timestamp `json:"started_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	UrlsFound   int        `json:"urls_found" validate:"gte=0"`
}

// Supplier is a vendor candidate returned by search.
type Supplier struct {
	Id            int64   `json:"id" validate:"required,gt=0"`
	Domain        string  `json:"domain"`
	CompanyName   string  `json:"company_name"`
	Inn           string  `json:"inn"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	ContactsCount int     `json:"contacts_count,omitempty"`
}

type SupplierDetail struct {
	Id          int64             `json:"id" validate:"required,gt=0"`
	Domain      string            `json:"domain"`
	CompanyName string            `json:"company_name"`
	Inn         string            `json:"inn"`
	Rating      float64           `json:"rating" validate:"gte=0,lte=5"`
	Source      string            `json:"source"`
	CreatedAt   Timestamp         `json:"created_at"`
	Contacts    []SupplierContact `json:"contacts"`
}

type SupplierContact struct {
	Id       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

type UploadResult struct {
	RequestId       int64  `json:"request_id" validate:"required,gt=0"`
	Filename        string `json:"filename"`
	Items           int    `json:"items" validate:"gte=0"`
	DbContactsFound int    `json:"db_contacts_found"`
}

type SubmitResult struct {
	RequestId int64         `json:"request_id" validate:"required,gt=0"`
	NewStatus RequestStatus `json:"new_status" validate:"required,oneof=draft submitted moderation completed"`
}

type DeleteResult struct {
	DeletedId int64 `json:"deleted_id" validate:"required,gt=0"`
}

type StartParsingResult struct {
	RequestId    int64 `json:"request_id" validate:"required,gt=0"`
	TasksCreated int   `json:"tasks_created" validate:"gte=0"`
}

type ParseResult struct {
	TaskId       int64  `json:"task_id" validate:"required,gt=0"`
	Status       string `json:"status" validate:"required"`
	Method       string `json:"method"`
	Message      string `json:"message"`
	CeleryTaskId string `json:"celery_task_id,omitempty"`
}

type RejectForm struct {
	Reason string `json:"reason" validate:"required"`
}

type ParseForm struct {
	Method string `json:"method" validate:"required,oneof=background_task celery patchright"`
}

// ModerateURLForm approves or rejects one crawled URL.
type ModerateURLForm struct {
	Status      TaskStatus        `json:"status" validate:"required,oneof=approved rejected"`
	Inn         string            `json:"inn,omitempty" validate:"omitempty,numeric,min=10,max=12"`
	ContactInfo map[string]string `json:"contact_info,omitempty"`
}

type ModerateURLResult struct {
	UrlId            int64  `json:"url_id" validate:"required,gt=0"`
	ModerationStatus string `json:"moderation_status"`
}

// TaskActionResult is the acknowledgement of an approve or reject call.
type TaskActionResult struct {
	Status  string `json:"status"`
	TaskId  int64  `json:"task_id,omitempty"`
	Message string `json:"message,omitempty"`
}
