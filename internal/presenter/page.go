package presenter

// pageTemplate is the page shell served at GET /. The inline script only
// wires presentation events: drag-and-drop posts through the same staging
// endpoint as the picker, and row clicks fetch the detail fragment.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>LeafletLens</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<main class="container">
<h1>Leaflet Product Extractor</h1>

{{if .Status}}<div id="statusMessage" class="status-message {{.Status.Kind}}">{{.Status.Text}}</div>{{end}}

<form id="uploadForm" action="/upload" method="post" enctype="multipart/form-data">
<div id="uploadArea" class="upload-area">
<p>Drag &amp; drop a leaflet image here, or</p>
<input type="file" id="fileInput" name="image" accept="image/*">
</div>
{{if .SelectionLabel}}<div id="selectedFile" class="selected-file">{{.SelectionLabel}}</div>{{end}}
<button type="submit" id="extractBtn" {{if not .TriggerEnabled}}disabled{{end}}>Extract Products</button>
</form>

{{if .ResultsVisible}}
<section id="resultsSection" class="results-section">
<h2>Extracted Products (<span id="productCount">{{.ProductCount}}</span>)</h2>
<table>
<thead>
<tr><th>#</th><th>Product</th><th>Price</th><th>Unit</th><th>Category</th><th>Special Offer</th><th></th></tr>
</thead>
<tbody id="productsTableBody">
{{.Rows}}
</tbody>
</table>
<a id="downloadBtn" class="button" href="/export">Download JSON</a>
</section>
{{end}}

<div id="productModal" class="modal" hidden>
<div class="modal-content">
<button class="close-modal">&times;</button>
<div id="productDetails"></div>
</div>
</div>
</main>

<script>
const modal = document.getElementById('productModal');
const details = document.getElementById('productDetails');

async function viewProduct(index) {
    const resp = await fetch('/product/' + index);
    details.innerHTML = await resp.text();
    modal.hidden = false;
}

document.querySelectorAll('.product-row').forEach((row) => {
    row.style.cursor = 'pointer';
    row.addEventListener('click', () => viewProduct(row.dataset.index));
});

document.querySelector('.close-modal')?.addEventListener('click', () => modal.hidden = true);
window.addEventListener('click', (e) => { if (e.target === modal) modal.hidden = true; });

const uploadArea = document.getElementById('uploadArea');
const fileInput = document.getElementById('fileInput');
const uploadForm = document.getElementById('uploadForm');

uploadArea.addEventListener('dragover', (e) => {
    e.preventDefault();
    uploadArea.classList.add('drag-over');
});
uploadArea.addEventListener('dragleave', () => uploadArea.classList.remove('drag-over'));
uploadArea.addEventListener('drop', (e) => {
    e.preventDefault();
    uploadArea.classList.remove('drag-over');
    if (e.dataTransfer.files.length > 0) {
        fileInput.files = e.dataTransfer.files;
        stageSelection();
    }
});
fileInput.addEventListener('change', stageSelection);

async function stageSelection() {
    const data = new FormData();
    data.append('image', fileInput.files[0]);
    await fetch('/stage', { method: 'POST', body: data });
    window.location.reload();
}
</script>
</body>
</html>
`
